// Package rangecheck finds conditions whose outcome is fixed by the values
// their operands can take.
//
// For each function it builds two tables: parameters of the recognized
// unsigned type mapped to the whole domain, and top-level local declarations
// mapped either to the single value of an integer literal or to the variable
// they were initialized from. Each operand of a top-level `if x OP y`
// condition is resolved through these tables to a Range; the two ranges are
// compared and, together with OP, give a Verdict.
//
//	func g() {
//		a := 5
//		b := 10
//		if a < b { // always true
//		}
//	}
//
// Anything the tables cannot express (calls, arithmetic, nested blocks,
// parameters of other types) leaves the condition undecided, so no
// diagnostic is produced for it.
package rangecheck
