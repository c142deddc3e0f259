package status

// Status is a custom type to represent the state of the dataset
type Status int

const (
	// Idle means the dataset was not requested yet
	Idle Status = 0

	// Loading means that the sheet is being read
	Loading Status = 1

	// Ready means that charts can be served
	Ready Status = 2

	// Failed means that the sheet could not be loaded
	Failed Status = 3
)

var (
	statusText = map[Status]string{
		Idle:    "Dataset not loaded yet",
		Loading: "Dataset is being loaded",
		Ready:   "Dataset loaded, charts available",
		Failed:  "Dataset unavailable",
	}
)

// Text returns a text for a status. It returns the empty
// string if the status is unknown.
func Text(status Status) string {
	return statusText[status]
}
