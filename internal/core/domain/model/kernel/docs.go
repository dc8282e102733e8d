// Package kernel holds the value objects shared by every aggregate of the
// cargo coordination domain:
//   - UUID: identifiers of orders, users, persons, trucks and reference data
//   - GeoPoint: a validated latitude/longitude pair reported by drivers
//
// Both types are immutable and reject their zero value in Validate.
package kernel
