// Package builtin implements the attribute kinds shipped with the form
// engine and a registry that binds them to their persistent types and faces.
//
//	text, char           input (textarea and password faces for text)
//	boolean              checkbox
//	date, datetime       date inputs, stored as 2006-01-02 and RFC 3339
//	long, int, short     integer input
//	double, float, ...   decimal input
//	uuid                 canonical uuid text
//	enumeration          select (radio face)
//	attachment           attachment references
//
// Text-like kinds edit multi-valued attributes as one newline-separated
// buffer: blank lines are dropped and the remaining lines become values in
// order, reusing existing value identities by position.
package builtin
