// Package identity models the people the service works with.
//
// A User is the account known to the identity provider: phone, role and
// push-token registration. A Person is the role-scoped profile wrapping a
// User, with the approval flags and the optional passport and driving
// license records. Approval is one way: once a flag is set it is never
// cleared.
package identity
