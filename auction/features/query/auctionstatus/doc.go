// Package auctionstatus implements the read model of one auction: leader, deadline,
// settlement and the pending returns of all accounts.
package auctionstatus
