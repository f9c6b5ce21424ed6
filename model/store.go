package model

type (
	// Repositories bundles the record services that are only valid inside Store.Exclusive.
	Repositories struct {
		Galleries GalleryService
		Messages  MessageService
		Settings  SettingService
		Styles    StyleService
	}

	// Store guards all record access behind one exclusive section. fn must not block
	// on anything but local I/O; network calls belong outside of it.
	Store interface {
		Exclusive(fn func(repos *Repositories) error) error
	}
)
