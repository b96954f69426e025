package reference

// Author represents one name from a BibTeX author list.
type Author struct {
	First string `json:"first"` // First/given name(s), may carry LaTeX escapes
	Last  string `json:"last"`  // Last/family name without its protecting braces
}
