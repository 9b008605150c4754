// Package main provides the entry point for the WebShield backend service.
// It runs a REST API using the Fiber framework that manages user profiles,
// per-user security and privacy settings, whitelist/blacklist URL filters and
// usage statistics. The application uses gorm for data persistence and keeps
// sessions in a gofiber storage backend.
package main
