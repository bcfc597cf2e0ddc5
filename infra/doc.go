// Package infra contains technical adapters such as the redis data store,
// the MQTT outgoing queue, the translation client and metrics exporters.
// These packages should depend only on the interfaces defined in the core
// packages.
package infra
