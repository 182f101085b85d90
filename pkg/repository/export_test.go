package repository

var (
	ParseTimestamp = parseTimestamp
	ParseNumber    = parseNumber
	RedactLocation = redactLocation
	ReadCSV        = readCSV
)

var (
	ParseFirestoreLocation = parseFirestoreLocation
	FirestoreCell          = firestoreCell
	RecordFromDocument     = recordFromDocument
)
