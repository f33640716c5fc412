package book

// SampleBooks returns the starter catalog used by the in-memory backend and
// the seed command.
func SampleBooks() []Book {
	return []Book{
		{
			Title:       "The Go Programming Language",
			Author:      "Alan Donovan",
			Year:        2015,
			ISBN:        "9780134190440",
			Description: "A comprehensive guide to Go programming",
		},
		{
			Title:       "Clean Code",
			Author:      "Robert C. Martin",
			Year:        2008,
			ISBN:        "9780132350884",
			Description: "A handbook of agile software craftsmanship",
		},
		{
			Title:       "Design Patterns",
			Author:      "Gang of Four",
			Year:        1994,
			ISBN:        "9780201633610",
			Description: "Elements of Reusable Object-Oriented Software",
		},
		{
			Title:       "Microservices Patterns",
			Author:      "Chris Richardson",
			Year:        2018,
			Description: "With examples in Java",
		},
	}
}
