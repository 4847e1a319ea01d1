package intercept

// IsWrapped reports whether c is an intercepted callable, looking through
// annotations.
func IsWrapped(c Callable) bool {
	_, ok := unwrapAnnotation(c).(*interceptor)
	return ok
}

// Layers returns how many interceptors are stacked on c.
func Layers(c Callable) int {
	n := 0
	for {
		ic, ok := unwrapAnnotation(c).(*interceptor)
		if !ok {
			return n
		}
		n++
		c = ic.next
	}
}

// shouldWrap reports whether a new interceptor may be applied to c.
func shouldWrap(c Callable, eff *Effective) bool {
	return eff.Duplicates || !IsWrapped(c)
}
