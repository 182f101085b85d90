package usecase

// CacheLen exposes the number of cached filter results for testing
func (d *Dashboard) CacheLen() int {
	return d.cache.Len()
}
