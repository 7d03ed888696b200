package bookshelf

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrUnresolvedAuthor is reported when addBook names neither an existing author nor a new one.
var ErrUnresolvedAuthor = errors.New("no author found for this book")

const codeUnresolvedAuthor = "UNRESOLVED_AUTHOR"

type authorInput struct {
	Name string
}

type addBookArgs struct {
	Name     string
	AuthorID *int32
	Author   *authorInput
}

// AddBook adds a book to the author named by AuthorID or, failing that, to a
// new author created from Author. An AuthorID of 0 counts as absent since ids start at 1. When neither resolves, the result is an
// AddBookError and nothing is written.
func (r *Resolver) AddBook(args addBookArgs) *addBookResultResolver {
	switch {
	case args.AuthorID != nil && *args.AuthorID != 0:
		b, a, ok := r.ds.AddBookForAuthor(args.Name, *args.AuthorID)
		if !ok {
			return r.unresolvedAuthor(args)
		}
		r.logger.Info("book added", zap.Int32("book_id", b.ID), zap.Int32("author_id", a.ID))
		return &addBookResultResolver{result: &bookResolver{ds: r.ds, b: b}}

	case args.Author != nil && args.Author.Name != "":
		b, a := r.ds.AddBookWithNewAuthor(args.Name, args.Author.Name)
		r.logger.Info("book added with new author", zap.Int32("book_id", b.ID), zap.Int32("author_id", a.ID))
		return &addBookResultResolver{result: &bookResolver{ds: r.ds, b: b}}
	}
	return r.unresolvedAuthor(args)
}

func (r *Resolver) unresolvedAuthor(args addBookArgs) *addBookResultResolver {
	fields := []zap.Field{zap.String("book", args.Name)}
	if args.AuthorID != nil {
		fields = append(fields, zap.Int32("author_id", *args.AuthorID))
	}
	r.logger.Debug("addBook rejected", append(fields, zap.Error(ErrUnresolvedAuthor))...)
	return &addBookResultResolver{result: &addBookErrorResolver{code: codeUnresolvedAuthor, err: ErrUnresolvedAuthor}}
}

type addBookResultResolver struct {
	result interface{}
}

func (r *addBookResultResolver) ToBook() (*bookResolver, bool) {
	res, ok := r.result.(*bookResolver)
	return res, ok
}

func (r *addBookResultResolver) ToAddBookError() (*addBookErrorResolver, bool) {
	res, ok := r.result.(*addBookErrorResolver)
	return res, ok
}

type addBookErrorResolver struct {
	code string
	err  error
}

func (r *addBookErrorResolver) Code() string {
	return r.code
}

func (r *addBookErrorResolver) Message() string {
	return r.err.Error()
}
