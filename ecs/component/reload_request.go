package component

// ReloadRequest asks the reload system to load the waypoint file at Path on
// its next update. An empty Path reloads the system's default file.
type ReloadRequest struct {
	Path string
}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
