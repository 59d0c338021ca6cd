// Package authpair is an embeddable authentication engine built around a
// single authoritative token pair per login.
//
// Every successful registration, login, or refresh issues one access token
// and one refresh token, and the pair currently stored in Redis is the only
// pair the engine honors. Presenting a superseded refresh token is treated
// as evidence of theft and fails closed; presenting a superseded access
// token is rejected the same way. Logging in from a second client silently
// replaces the first client's pair.
//
// The engine is assembled through a fluent builder:
//
//	cfg, err := authpair.FromEnv()
//	engine, err := authpair.New().
//		WithConfig(cfg).
//		WithRedis(rdb).
//		WithUsers(users).
//		Build()
//
// Durable credential storage is abstracted behind [UserStore]; package
// sqlite ships a ready implementation. Failures surface as sentinel errors
// (ErrConflict, ErrInvalidCredentials, ErrRefreshCompromised, ...) matched
// with errors.Is; [StatusCode] translates them to HTTP status codes at the
// outermost boundary.
package authpair
