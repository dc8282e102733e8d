// Package access is the static role/permission model of the service.
//
// Every inbound operation declares an Action; IsAllowed answers whether a Role
// may perform it. Admin bypasses every check. The table is fixed at compile
// time and has no dependencies, so both the HTTP and the WebSocket adapters
// consult it before touching any repository.
package access
