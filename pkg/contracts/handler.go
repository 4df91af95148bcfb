package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every HTTP handler group that knows how to
// mount its own routes.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
