package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/orderdesk/internal/client/credstore"
	"github.com/dmitrijs2005/orderdesk/internal/client/models"
	"github.com/dmitrijs2005/orderdesk/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatus(t *testing.T) {
	a := &App{session: session.NewManager(credstore.NewMemoryStore())}
	assert.Equal(t, "(restoring session)", a.getStatus())

	a.session.Initialize(context.Background())
	assert.Equal(t, "", a.getStatus())

	a.session.SetUser(models.User{"token": "T"})
	assert.Equal(t, "(logged in)", a.getStatus())

	a.session.SetUser(models.User{"token": "T", "email": "alice@example.org"})
	assert.Equal(t, "(alice@example.org)", a.getStatus())
}

func TestWhoAmI(t *testing.T) {
	a, out := newTestApp(t, &fakeAuth{})

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Equal(t, "Not logged in\n", out.String())

	out.Reset()
	a.session.SetUser(models.User{"token": "T", "email": "a@b.com", "name": "Ann", "role": "admin"})
	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Equal(t, "Logged in as a@b.com\nName: Ann\nRole: admin\n", out.String())
}

func TestRoot_RunsREPL(t *testing.T) {
	silencePrompt(t)

	a, out := newTestApp(t, &fakeAuth{})
	a.reader = rdr("whoami\nexit\n")

	a.Root(context.Background())
	assert.Contains(t, out.String(), "Welcome to OrderDesk CLI")
	assert.Contains(t, out.String(), "Not logged in")
	assert.Contains(t, out.String(), "Bye!")
}
