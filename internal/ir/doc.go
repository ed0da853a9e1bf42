// Package ir provides the foundational value and error types for docql.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the literal value set
// and the compile-error taxonomy as the bottom layer with no circular
// dependencies.
//
// Key design constraints:
//   - IRValue is sealed: constants reaching the compiler are normalized into
//     this closed set before they are formatted as query literals
//   - Object keys always iterate in canonical (UTF-16 code unit) order so
//     the same object renders to the same text
//   - Every translation failure is a *CompileError carrying one of three codes
package ir
