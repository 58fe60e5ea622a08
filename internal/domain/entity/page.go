package entity

import (
	"encoding/base64"
	"fmt"
)

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

func (s *Screenshot) Base64() string {
	return base64.StdEncoding.EncodeToString(s.Data)
}

// DataURI renders the image as an inline payload accepted by vision models.
func (s *Screenshot) DataURI() string {
	return fmt.Sprintf("data:image/%s;base64,%s", s.Format, s.Base64())
}
