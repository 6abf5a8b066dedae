// Package graph provides a small state-machine abstraction in the style of
// LangGraph: named nodes transform a state value, plain edges chain nodes,
// and conditional edges pick the successor at runtime. A compiled Runnable
// drives the machine until it reaches the END sentinel.
package graph
