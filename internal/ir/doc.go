// Package ir provides the in-memory document model of a CDP protocol schema.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This ensures the model remains the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Every ordered sequence (domains, types, properties) keeps schema order
//   - TypeRef.Target is filled by the resolver, never by the loader
//   - Dispatch tags are always "Domain.name" with casing preserved
package ir
