package session

import "sync"

// Routes the facade navigates between.
const (
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteDashboard = "/dashboard"
)

// Navigator moves the user between screens.
type Navigator interface {
	Current() string
	Navigate(route string)
}

// RouteNavigator is an in-memory Navigator that records the current route.
type RouteNavigator struct {
	mu      sync.Mutex
	current string
	history []string
}

// NewRouteNavigator starts at route.
func NewRouteNavigator(route string) *RouteNavigator {
	return &RouteNavigator{current: route}
}

// Current returns the active route.
func (n *RouteNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate switches to route.
func (n *RouteNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.history = append(n.history, route)
	n.current = route
}

// History returns the routes navigated to, oldest first.
func (n *RouteNavigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}
