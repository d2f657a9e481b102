package dataset

// Record is one labeled evaluation case: a query image and the catalog
// filename a human judged to be its best match.
type Record struct {
	ID        string `json:"id" parquet:"id"`
	ImagePath string `json:"image_path" parquet:"image_path"`
	Expected  string `json:"expected" parquet:"expected"`

	// Message optionally accompanies the image, mimicking a user typing
	// alongside their upload.
	Message string `json:"message,omitempty" parquet:"message"`
}
