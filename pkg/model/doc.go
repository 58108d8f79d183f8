// Package model defines the attribute/value model consumed by the form
// engine. A Definition is an ordered list of Attributes identified by
// (Type, Code); a Value is one stored payload of an attribute for one owner,
// positioned by Seq inside multi-valued attributes. Confidential values
// loaded from the backend never carry the secret: their payload is
// ConfidentialSentinel and Value.Masked reports true for the owning
// confidential attribute. The types live in
// internal/model and are re-exported here so callers depend on a single
// import path.
package model
