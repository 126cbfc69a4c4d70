package server

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/materializer"
	"github.com/modelbase/modelbase/pkg/registry"
	"github.com/modelbase/modelbase/pkg/schema"
	"github.com/modelbase/modelbase/pkg/server/store"
	gormstore "github.com/modelbase/modelbase/pkg/server/store/gorm"
	"github.com/modelbase/modelbase/pkg/token"
)

// Materializer creates the physical table backing a declaration.
type Materializer interface {
	Materialize(decl *schema.Declaration) error
}

type Server struct {
	Router       *mux.Router
	DB           *gorm.DB
	Config       *config.ModelbaseConfig
	Signer       *token.Signer
	Materializer Materializer

	// Registry is assigned by endpoints.RegisterAll, which owns the
	// per-model handler factory.
	Registry *registry.Registry

	ModelsStore  store.ModelsStore
	RecordsStore store.RecordsStore
	UsersStore   store.UsersStore
	HealthStore  store.HealthStore

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	cfg *config.ModelbaseConfig,
	signer *token.Signer,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:       router,
		DB:           db,
		Config:       cfg,
		Signer:       signer,
		Materializer: materializer.New(db),

		ModelsStore:  gormstore.NewModelsStore(db),
		RecordsStore: gormstore.NewRecordsStore(db),
		UsersStore:   gormstore.NewUsersStore(db),
		HealthStore:  gormstore.NewHealthStore(db),

		srv: srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an already-bound listener. Tests use it to
// run instances on ephemeral ports.
func (s Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}
