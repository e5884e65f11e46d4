package transcript

var fallbackLines = []Line{
	{Start: 0, End: 4, Text: "Hola y bienvenidos a este episodio.", Translation: "Hello and welcome to this episode."},
	{Start: 4, End: 8.5, Text: "Hoy vamos a practicar un poco de español.", Translation: "Today we are going to practice a little Spanish."},
	{Start: 8.5, End: 13, Text: "La transcripción completa no está disponible ahora mismo.", Translation: "The full transcript is not available right now."},
	{Start: 13, End: 17.5, Text: "Puedes seguir escuchando mientras lo intentamos de nuevo.", Translation: "You can keep listening while we try again."},
	{Start: 17.5, End: 22, Text: "Gracias por aprender con nosotros.", Translation: "Thanks for learning with us."},
}

// Fallback returns the built-in demo transcript shown when no real transcript
// could be obtained.
func Fallback() *Transcript {
	return New(fallbackLines)
}
