// Package main provides the entry point of orbitdesk, a multi tenant platform whose auth,
// admin and organization servers share one role based authorization core. Permissions
// exist platform wide (global roles) and per organization (organization roles); role
// resolution and session validation are cached in redis and invalidated by tag.
package main
