package imagechat

import "fmt"

// DownloadName returns the file name used when saving the image at index of
// the message with the given ID.
func DownloadName(messageID string, index int) string {
	return fmt.Sprintf("generated-image-%s-%d.png", messageID, index+1)
}

// ImageSaver writes message images to local storage.
type ImageSaver interface {
	// Save writes the image at index of msg and returns the written path.
	Save(msg Message, index int) (string, error)
}

// Viewer opens a saved image as a standalone view.
type Viewer interface {
	Open(path string) error
}
