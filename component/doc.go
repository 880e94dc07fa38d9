// Package component defines the lifecycle contract shared by long-lived
// hydrakit parts (an API client, the fake test server) and a registry that
// starts them in order, stops them in reverse and aggregates their health.
package component
