// Package querydef decodes YAML query definitions into query models.
//
// A definition names one query over a typed entity:
//
//	name: adults_named_sam
//	entity: Contact
//	collection: default
//	alias: e
//	vars:
//	  minAge: 10
//	where:
//	  - and:
//	      - gt: [{member: Age}, {var: minAge}]
//	      - eq: [{member: FirstName}, Sam]
//	missing: [Email]
//	order_by:
//	  - key: {member: Age}
//	    dir: desc
//	select:
//	  - {as: age, value: {member: Age}}
//	meta: true
//	take: 10
//	skip: 20
//	expect: "SELECT ..."
//
// Expressions are encoded as follows:
//
//	scalar / list              constant (a list is an array constant)
//	{member: A.B}              member path on the range variable; a nested
//	                           segment resolves against the entity named
//	                           after its parent member
//	{var: name}                closed-over variable from vars
//	{param: e}                 the range variable itself
//	{const: value}             explicit constant (maps, lists)
//	{eq|ne|lt|le|gt|ge|add|sub|mul|div|mod|concat: [l, r]}
//	{and|or: [a, b, ...]}      left-folded
//	{not: x} {neg: x}
//	{call: {method: ToUpper, target: x, args: [...]}}
//	{contains|starts_with|ends_with: [target, arg]}
package querydef
