// Package fieldmap resolves typed member names to stored document field
// names.
//
// Resolution order for (entity, member):
//  1. An explicit override declared for the entity
//  2. The entity's own naming convention, if it declares one
//  3. The mapper's default convention (lower_first unless configured)
//
// A Mapper is read-only after construction. Lookups are memoized in a
// synchronized LRU, so one Mapper may be shared by any number of
// concurrent compilations.
package fieldmap
