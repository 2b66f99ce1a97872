package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isiprint/internal/domain/models"
	"isiprint/internal/infrastructure/logger"
	"isiprint/internal/service/printers"
	"isiprint/internal/testutil"
)

type recordedMessage struct {
	kind models.MessageKind
	text string
}

type recorder struct {
	mutex sync.Mutex
	msgs  []recordedMessage
}

func (r *recorder) Success(text string) { r.add(models.MessageSuccess, text) }
func (r *recorder) Error(text string)   { r.add(models.MessageError, text) }

func (r *recorder) add(kind models.MessageKind, text string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.msgs = append(r.msgs, recordedMessage{kind, text})
}

func (r *recorder) last() recordedMessage {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.msgs[len(r.msgs)-1]
}

func (r *recorder) kinds() []models.MessageKind {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]models.MessageKind, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = m.kind
	}
	return out
}

var (
	raw9100 = models.NetworkPrinter{Name: "Network_Printer_192_168_1_50_9100", IP: "192.168.1.50", Port: 9100, Protocol: "raw", IsOnline: true}
	ipp631  = models.NetworkPrinter{Name: "Network_Printer_192_168_1_60_631", IP: "192.168.1.60", Port: 631, Protocol: "ipp", IsOnline: true}
)

func setup(backend *testutil.FakeBackend) (*Workflow, *printers.Registry, *recorder) {
	reg := printers.NewRegistry(backend, testutil.NewMemoryStore(), logger.Nop())
	rec := &recorder{}
	return NewWorkflow(backend, reg, rec, logger.Nop()), reg, rec
}

func TestScan_Success(t *testing.T) {
	backend := &testutil.FakeBackend{
		GetLocalIPFn: func(context.Context) (models.CommandResponse[string], error) {
			return testutil.OK("192.168.1.10"), nil
		},
		ScanNetworkPrintersFn: func(context.Context) (models.CommandResponse[[]models.NetworkPrinter], error) {
			return testutil.OK([]models.NetworkPrinter{raw9100, ipp631, raw9100}), nil
		},
	}
	w, _, rec := setup(backend)

	require.NoError(t, w.Scan(context.Background()))

	st := w.State()
	assert.False(t, st.Scanning)
	assert.True(t, st.Ready)
	assert.Equal(t, "192.168.1.10", st.LocalIP)
	assert.Equal(t, []models.NetworkPrinter{raw9100, ipp631}, st.Candidates)
	assert.Equal(t, []models.MessageKind{models.MessageSuccess, models.MessageSuccess}, rec.kinds())
	assert.Equal(t, "Found 2 network printers", rec.last().text)
}

func TestScan_EmptyResultIsReady(t *testing.T) {
	backend := &testutil.FakeBackend{
		ScanNetworkPrintersFn: func(context.Context) (models.CommandResponse[[]models.NetworkPrinter], error) {
			return testutil.OK([]models.NetworkPrinter{}), nil
		},
	}
	w, _, rec := setup(backend)

	// get_local_ip is not stubbed and fails; the scan still proceeds.
	require.NoError(t, w.Scan(context.Background()))
	st := w.State()
	assert.True(t, st.Ready)
	assert.Empty(t, st.Candidates)
	assert.Empty(t, st.LocalIP)
	assert.Equal(t, "Found 0 network printers", rec.last().text)
}

func TestScan_FailureKeepsCandidates(t *testing.T) {
	backend := &testutil.FakeBackend{
		ScanNetworkPrintersFn: func(context.Context) (models.CommandResponse[[]models.NetworkPrinter], error) {
			return testutil.OK([]models.NetworkPrinter{raw9100}), nil
		},
	}
	w, _, rec := setup(backend)
	require.NoError(t, w.Scan(context.Background()))

	backend.ScanNetworkPrintersFn = func(context.Context) (models.CommandResponse[[]models.NetworkPrinter], error) {
		return testutil.Fail[[]models.NetworkPrinter]("no interface"), nil
	}
	require.Error(t, w.Scan(context.Background()))
	assert.Equal(t, recordedMessage{models.MessageError, "no interface"}, rec.last())

	backend.ScanNetworkPrintersFn = func(context.Context) (models.CommandResponse[[]models.NetworkPrinter], error) {
		return models.CommandResponse[[]models.NetworkPrinter]{}, errors.New("timeout")
	}
	require.Error(t, w.Scan(context.Background()))
	assert.Equal(t, recordedMessage{models.MessageError, MsgScanError}, rec.last())

	st := w.State()
	assert.False(t, st.Scanning)
	assert.Equal(t, []models.NetworkPrinter{raw9100}, st.Candidates)
}

func TestScan_NotReentrant(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &testutil.FakeBackend{
		ScanNetworkPrintersFn: func(context.Context) (models.CommandResponse[[]models.NetworkPrinter], error) {
			close(started)
			<-release
			return testutil.OK([]models.NetworkPrinter{}), nil
		},
	}
	w, _, _ := setup(backend)

	done := make(chan error, 1)
	go func() { done <- w.Scan(context.Background()) }()
	<-started

	assert.True(t, w.State().Scanning)
	assert.ErrorIs(t, w.Scan(context.Background()), ErrScanInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, backend.Calls("scan_network_printers"))
	assert.False(t, w.State().Scanning)
}

func TestAdopt_ReloadsOnceThenReportsSuccess(t *testing.T) {
	backend := &testutil.FakeBackend{
		AddNetworkPrinterFn: func(_ context.Context, p models.NetworkPrinter) (models.CommandResponse[string], error) {
			return testutil.OK("added " + p.Name), nil
		},
		GetPrintersFn: func(context.Context) (models.CommandResponse[[]string], error) {
			return testutil.OK([]string{"EPSON", raw9100.Name}), nil
		},
	}
	w, reg, rec := setup(backend)

	require.NoError(t, w.Adopt(context.Background(), raw9100))
	assert.Equal(t, 1, backend.Calls("get_printers"))
	assert.Equal(t, []string{"EPSON", raw9100.Name}, reg.Printers())
	assert.Equal(t, recordedMessage{models.MessageSuccess, "Printer " + raw9100.Name + " added"}, rec.last())
}

func TestAdopt_ReloadFailureIsNotSuccess(t *testing.T) {
	backend := &testutil.FakeBackend{
		AddNetworkPrinterFn: func(context.Context, models.NetworkPrinter) (models.CommandResponse[string], error) {
			return testutil.OK("ok"), nil
		},
		GetPrintersFn: func(context.Context) (models.CommandResponse[[]string], error) {
			return models.CommandResponse[[]string]{}, errors.New("socket closed")
		},
	}
	w, _, rec := setup(backend)

	require.Error(t, w.Adopt(context.Background(), raw9100))
	assert.Equal(t, 1, backend.Calls("get_printers"))
	for _, k := range rec.kinds() {
		assert.Equal(t, models.MessageError, k)
	}
}

func TestAdopt_Failures(t *testing.T) {
	tests := []struct {
		name     string
		add      func(context.Context, models.NetworkPrinter) (models.CommandResponse[string], error)
		wantText string
	}{
		{
			name: "backend text",
			add: func(context.Context, models.NetworkPrinter) (models.CommandResponse[string], error) {
				return testutil.Fail[string]("lpadmin: permission denied"), nil
			},
			wantText: "lpadmin: permission denied",
		},
		{
			name: "backend without text",
			add: func(context.Context, models.NetworkPrinter) (models.CommandResponse[string], error) {
				return testutil.Fail[string](""), nil
			},
			wantText: MsgAddError,
		},
		{
			name: "transport",
			add: func(context.Context, models.NetworkPrinter) (models.CommandResponse[string], error) {
				return models.CommandResponse[string]{}, errors.New("closed")
			},
			wantText: MsgAddFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &testutil.FakeBackend{AddNetworkPrinterFn: tt.add}
			w, reg, rec := setup(backend)

			require.Error(t, w.Adopt(context.Background(), ipp631))
			assert.Equal(t, recordedMessage{models.MessageError, tt.wantText}, rec.last())
			assert.Zero(t, backend.Calls("get_printers"))
			assert.Empty(t, reg.Printers())
		})
	}
}
