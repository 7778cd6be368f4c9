// Package adminauth implements credential authentication and role/permission
// authorization for a storefront's administrative back office: signed bearer
// tokens, a brute-force lockout state machine persisted on the account record,
// and a deny-by-default resource/action permission model.
//
// The package is the public surface. It exposes [Gateway], [Builder], [Config],
// the [Account] model, the [AccountStore] persistence interface, and sentinel
// errors. Leaf concerns live in subpackages: token signing in token, password
// hashing in password, the permission grid in permission, login throttling in
// rate, audit sinks in audit, and store implementations under store/. HTTP
// glue lives in middleware and httpapi and never leaks into Gateway methods.
//
// # Statelessness
//
// Tokens are self-contained and never revoked server side: logout is a
// client-side discard and a token stays valid until its natural expiry. The
// only post-issuance control is that every guarded request reloads the account
// and rejects tokens whose subject has become inactive or locked. Deployments
// that need hard revocation must front this package with their own token
// denylist.
//
// # Concurrency
//
// Gateway methods are safe for concurrent use after [Builder.Build]. Logins
// against the same account are not synchronized against each other; two
// simultaneous failures may both observe the same attempt counter, which can
// only make lockout trigger earlier, never later.
package adminauth
