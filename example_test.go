package bookshelf_test

import (
	"context"
	"encoding/json"
	"os"

	"github.com/graph-gophers/bookshelf"
	"github.com/graph-gophers/bookshelf/internal/dataset"
)

// Example demonstrates executing a query against the seeded bookshelf.
func Example() {
	schema := bookshelf.MustNewSchema(bookshelf.NewResolver(dataset.NewSeeded(), nil))
	query := `
		query {
			book(id: 7) {
				name
				author { name }
			}
		}
	`

	res := schema.Exec(context.Background(), query, "", nil)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	err := enc.Encode(res)
	if err != nil {
		panic(err)
	}

	// output:
	// {
	//   "data": {
	//     "book": {
	//       "name": "The Way of Shadows",
	//       "author": {
	//         "name": "Brent Weeks"
	//       }
	//     }
	//   }
	// }
}

// Example_addBook demonstrates the two variants of the addBook result.
func Example_addBook() {
	schema := bookshelf.MustNewSchema(bookshelf.NewResolver(dataset.NewSeeded(), nil))
	query := `
		mutation {
			added: addBook(name: "Shadow's Edge", authorId: 3) {
				... on Book { id authorId }
			}
			rejected: addBook(name: "Nobody's Book") {
				... on AddBookError { code message }
			}
		}
	`

	res := schema.Exec(context.Background(), query, "", nil)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	err := enc.Encode(res)
	if err != nil {
		panic(err)
	}

	// output:
	// {
	//   "data": {
	//     "added": {
	//       "id": 9,
	//       "authorId": 3
	//     },
	//     "rejected": {
	//       "code": "UNRESOLVED_AUTHOR",
	//       "message": "no author found for this book"
	//     }
	//   }
	// }
}
