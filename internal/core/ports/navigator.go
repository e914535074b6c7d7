package ports

// Navigator moves the front end to another route. Implementations decide what
// that means: an HTTP redirect, a printed hint, a recorded target in tests.
type Navigator interface {
	Navigate(route string)
}
