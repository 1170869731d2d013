package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/client/services"
	"github.com/dmitrijs2005/gophvault/internal/client/session"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// ------------ fake auth ------------

type fakeAuth struct {
	state session.State

	regEmail   string
	regPass    []byte
	regPassRef []byte
	regConfirm []byte
	loginEmail string
	loginPass  []byte
	calls      []string

	err       error
	reloadErr error
}

var _ services.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Register(_ context.Context, email string, pass, confirm []byte) error {
	f.calls = append(f.calls, "register")
	f.regEmail = email
	f.regPass = append([]byte(nil), pass...)
	f.regPassRef = pass
	f.regConfirm = append([]byte(nil), confirm...)
	return f.err
}

func (f *fakeAuth) Login(_ context.Context, email string, pass []byte) error {
	f.calls = append(f.calls, "login")
	f.loginEmail = email
	f.loginPass = append([]byte(nil), pass...)
	return f.err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	return f.err
}

func (f *fakeAuth) Restore(context.Context) error {
	f.calls = append(f.calls, "restore")
	return f.reloadErr
}

func (f *fakeAuth) Reload(context.Context) error {
	f.calls = append(f.calls, "reload")
	return f.reloadErr
}

func (f *fakeAuth) Ping(context.Context) error { return nil }

func (f *fakeAuth) State() session.State { return f.state }

// ------------ fake records ------------

type fakeRecords struct {
	list     services.ListResult
	query    string
	added    []models.Record
	updated  map[string]models.Record
	deleted  []string
	get      map[string]models.RecordView
	err      error
	getCalls int
}

var _ services.RecordService = (*fakeRecords)(nil)

func newFakeRecords() *fakeRecords {
	return &fakeRecords{updated: map[string]models.Record{}, get: map[string]models.RecordView{}}
}

func (f *fakeRecords) Add(_ context.Context, r models.Record) (models.RecordView, error) {
	if f.err != nil {
		return models.RecordView{}, f.err
	}
	f.added = append(f.added, r)
	return models.RecordView{ID: "new-id", Record: r}, nil
}

func (f *fakeRecords) List(ctx context.Context) (services.ListResult, error) {
	return f.Search(ctx, "")
}

func (f *fakeRecords) Search(_ context.Context, query string) (services.ListResult, error) {
	f.query = query
	if f.err != nil {
		return services.ListResult{}, f.err
	}
	res := f.list
	res.Views = models.Filter(res.Views, query)
	return res, nil
}

func (f *fakeRecords) Get(_ context.Context, id string) (models.RecordView, error) {
	f.getCalls++
	if f.err != nil {
		return models.RecordView{}, f.err
	}
	v, ok := f.get[id]
	if !ok {
		return models.RecordView{}, client.ErrNotFound
	}
	return v, nil
}

func (f *fakeRecords) Update(_ context.Context, id string, r models.Record) (models.RecordView, error) {
	if f.err != nil {
		return models.RecordView{}, f.err
	}
	f.updated[id] = r
	return models.RecordView{ID: id, Record: r}, nil
}

func (f *fakeRecords) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// ------------ helpers ------------

// newTestApp builds an App over fakes. Input is read from the given text;
// passwords come from the same stream since stdin is not a terminal.
func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer, *fakeAuth, *fakeRecords) {
	t.Helper()

	oldIs, oldSpin := isTerminal, startSpinner
	t.Cleanup(func() { isTerminal, startSpinner = oldIs, oldSpin })
	isTerminal = func(int) bool { return false }
	startSpinner = func(io.Writer, string) func() { return func() {} }

	out := &bytes.Buffer{}
	fa := &fakeAuth{}
	fr := newFakeRecords()
	app := &App{
		session: session.NewManager(time.Hour),
		auth:    fa,
		records: fr,
		logger:  logging.Nop(),
		reader:  rdr(input),
		out:     out,
	}
	return app, out, fa, fr
}
