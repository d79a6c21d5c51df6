package deck

import (
	"bytes"
	"fmt"
)

const (
	contentTypesPath = "[Content_Types].xml"
	slideContentType = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
)

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// registerContentTypes adds Default entries for the image extensions
// written into the package and an Override per new slide part.
func registerContentTypes(pkg *Package, slidePaths []string, imageExts map[string]bool) error {
	raw, ok := pkg.Part(contentTypesPath)
	if !ok {
		return fmt.Errorf("content types part missing")
	}

	end := bytes.Index(raw, []byte("</Types>"))
	if end < 0 {
		return fmt.Errorf("content types part malformed")
	}

	var add bytes.Buffer
	for ext := range imageExts {
		mime, known := imageContentTypes[ext]
		if !known {
			continue
		}
		needle := fmt.Sprintf(`Extension="%s"`, ext)
		if !bytes.Contains(raw, []byte(needle)) {
			fmt.Fprintf(&add, `<Default Extension="%s" ContentType="%s"/>`, ext, mime)
		}
	}
	for _, path := range slidePaths {
		needle := fmt.Sprintf(`PartName="/%s"`, path)
		if !bytes.Contains(raw, []byte(needle)) {
			fmt.Fprintf(&add, `<Override PartName="/%s" ContentType="%s"/>`, path, slideContentType)
		}
	}

	if add.Len() == 0 {
		return nil
	}

	var out bytes.Buffer
	out.Write(raw[:end])
	out.Write(add.Bytes())
	out.Write(raw[end:])
	pkg.SetPart(contentTypesPath, out.Bytes())
	return nil
}
