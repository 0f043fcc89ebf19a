/*
Package observability turns chain lifecycle events into Prometheus metrics and
structured log records. Both are plain domain.LifecycleHooks and can be
combined with domain.CombineHooks.
*/
package observability
