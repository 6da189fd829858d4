// Package translation serves transliteration requests for the bot, the HTTP
// API and the CLI. It runs the transliteration engine, records metrics and
// keeps a history of requests in a db.Repository.
package translation
