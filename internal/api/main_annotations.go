// @title           ByteVault API
// @version         1.0
// @description     Bookmark vault for links and sessions of tabs. Log in to obtain a token pair.
// @BasePath        /api
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and the access token from /auth/login.
package api
