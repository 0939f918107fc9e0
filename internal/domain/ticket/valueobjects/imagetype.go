package valueobjects

import "fmt"

type ImageType string

const (
	ImageTypeInitial    ImageType = "INITIAL"
	ImageTypeAdditional ImageType = "ADDITIONAL"
)

func (t ImageType) String() string {
	return string(t)
}

func (t ImageType) IsValid() bool {
	return t == ImageTypeInitial || t == ImageTypeAdditional
}

func NewImageType(s string) (ImageType, error) {
	t := ImageType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid image type: %s", s)
	}
	return t, nil
}

type PhotoRequestStatus string

const (
	PhotoRequestPending   PhotoRequestStatus = "PENDING"
	PhotoRequestFulfilled PhotoRequestStatus = "FULFILLED"
)

func (s PhotoRequestStatus) String() string {
	return string(s)
}

func (s PhotoRequestStatus) IsValid() bool {
	return s == PhotoRequestPending || s == PhotoRequestFulfilled
}

func NewPhotoRequestStatus(s string) (PhotoRequestStatus, error) {
	st := PhotoRequestStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid photo request status: %s", s)
	}
	return st, nil
}
