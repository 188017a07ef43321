// Package authn provides the authentication middleware shared by every server process.
//
// The middleware reads a bearer token from the Authorization header or, as a fallback,
// from the access cookie, verifies it, checks the session it names and loads the user
// with its global role. Suspended and inactive accounts are logged out on the spot:
// their cookies are cleared and their session is deleted through the Backend.
//
// Usage:
//
//	app.Use(authn.New(authn.Config{Backend: backend, Tokens: tokens}))
//
//	func handler(c *fiber.Ctx) error {
//	    user := authn.User(c)
//	    ...
//	}
package authn
