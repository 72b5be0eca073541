package models

// CatImage es un elemento de la respuesta de /v1/images/search
type CatImage struct {
	ID     string `json:"id" validate:"required"`
	URL    string `json:"url" validate:"required,url"`
	Width  int    `json:"width" validate:"gt=0"`
	Height int    `json:"height" validate:"gt=0"`
}
