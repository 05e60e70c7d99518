package component

// TTL is a frame-based time-to-live. The TTL system destroys the entity when
// Frames reaches zero. With Lifetime set, the entity's visual fades out over
// it.
type TTL struct {
	Frames   int
	Lifetime int
}

var TTLComponent = NewComponent[TTL]()
