package models

// IndexPage son los datos con los que se pinta la página inicial.
// InitialCatImageURL viene del pre-fetch del servidor; si falló, Error
// lleva el mensaje a mostrar y la URL queda vacía.
type IndexPage struct {
	Caption            string
	InitialCatImageURL string
	Error              string
	RefreshURL         string
}
