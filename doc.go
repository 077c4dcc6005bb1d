// Command lsgap re-estimates the gaps between the contigs of genome assembly
// scaffolds by weighted least squares over mate-pair distance constraints.
//
// 🚀 What does it do?
//
//	For every scaffold of an input graph:
//		• labels the internal edges as trusted or untrusted against the layout
//		• splits the scaffold where trusted edges do not connect it
//		• solves the banded normal equations for every gap size
//		• forces impossible negative gaps back to the minimum allowed gap,
//		  unless a sequence overlap confirms them (contained contigs merge)
//		• rewrites contig offsets from the solved gaps
//
// Packages:
//
//	core/       scaffold graph store: contigs, scaffolds, edges, trust labels,
//	            connectivity split, containment merge
//	stats/      inverse-variance combination and pairwise chi-square test
//	overlap/    in-memory overlap detector
//	matrix/     symmetric band storage, native and gonum Cholesky backends
//	gapsolve/   classifier, system builder, solver, enforcer, driver
//	scaffoldio/ YAML input graphs and YAML results
//	config/     viper settings
//	logging/    slog logger construction
//	cmd/        cobra commands
//
// Quick example:
//
//	lsgap estimate --input scaffolds.yaml --output gaps.yaml --backend gonum
//	lsgap classify --input scaffolds.yaml
package main
