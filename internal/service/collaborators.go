package service

import "pagehistory/internal/port"

// Collaborators holds the subsystems that live outside the version log.
// It is built once at startup and handed to the services that need it.
type Collaborators struct {
	Pages  port.DocumentStore
	Tags   port.TagService
	Search port.SearchIndex
	Mirror port.StorageMirror
	Links  port.LinkGraph
}
