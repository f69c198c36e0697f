// Package ewaste provides the credential store and authentication flow
// behind the e-waste guidance service: registering device owners, hashing
// and verifying passwords, minting and validating bearer tokens, and
// persisting user records to a shared document.
//
// Persistence:
//   - UserStore abstracts the durable user document. FileStore keeps the
//     original single-JSON-file layout and rewrites the whole document on
//     every mutation inside one critical section. BunStore offers the same
//     contract on an embedded SQLite database for deployments that outgrow
//     the flat file; AuthService never touches the backing medium directly.
//
// Tokens:
//   - TokenService issues HS256 JWTs carrying the username claim and a
//     fixed TTL. Tokens are stateless and self-contained: there is no
//     session table and no revocation list, so a leaked token stays valid
//     until it expires.
//
// Error discipline:
//   - Unknown usernames and wrong passwords surface as the same error so
//     the login endpoint cannot be used to enumerate accounts. Storage
//     corruption is always reported as a storage failure, never as an
//     empty user list.
package ewaste
