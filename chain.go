package fatnav

// chainReader provides everything needed to follow cluster chains.
// It mainly exists to be able to mock the Image in tests.
// Generated mock using mockgen:
//  mockgen -source=chain.go -destination=chain_mock.go -package fatnav
type chainReader interface {
	geometry() Geometry
	nextCluster(cluster uint32) (uint32, bool, error)
	readAt(p []byte, offset int64) (int, error)
}
