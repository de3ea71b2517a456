// Package codec converts solid trees to and from self-describing documents.
//
// A document is a generic structured record whose "type" field names the
// variant and whose remaining fields carry that variant's attributes:
//
//	{"type": "Sphere", "center": [0, 0, 0], "radius": 1}
//	{"type": "Box", "axis": [2, 2, -1], "center": [0, 0, 0]}
//	{"type": "Union", "children": [...]}
//	{"type": "Intersection", "children": [...]}
//	{"type": "Subtraction", "children": [base, subtrahend, ...]}
//
// A negative axis component means the box is unbounded along that axis.
// Documents are usually carried as JSON or YAML.
package codec
