package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"

	"autobk/internal/autobk"
	"autobk/internal/config"
	"autobk/internal/testutil"
)

func testDevice() *autobk.Device {
	return &autobk.Device{
		ID: 42,
		DeviceFields: autobk.DeviceFields{
			Name:       "DCM-1",
			DeviceType: "DCM",
			IPv4:       "192.168.1.10",
			Day:        3,
			Hour:       12,
			Weeks:      2,
		},
	}
}

func assertRequest(t *testing.T, data []byte) {
	t.Helper()

	var req BackupRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("request is not valid JSON: %v", err)
	}
	if req.ID != "req-1" {
		t.Errorf("ID = %q, want %q", req.ID, "req-1")
	}
	if req.DeviceID != 42 || req.DeviceName != "DCM-1" || req.IPv4 != "192.168.1.10" {
		t.Errorf("request device = %+v", req)
	}
	if req.Day != 3 || req.Hour != 12 || req.Weeks != 2 {
		t.Errorf("request window = %d/%d/%d, want 3/12/2", req.Day, req.Hour, req.Weeks)
	}
	if !req.RequestedAt.Equal(testutil.FixedClock().Now()) {
		t.Errorf("RequestedAt = %v, want %v", req.RequestedAt, testutil.FixedClock().Now())
	}
}

func TestSpoolTrigger(t *testing.T) {
	t.Run("writes request file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "spool")
		s, err := NewSpoolTrigger(dir, testutil.FixedClock(), testutil.NewStubRequestIDs())
		if err != nil {
			t.Fatalf("NewSpoolTrigger() error = %v", err)
		}

		h, err := s.TriggerBackup(context.Background(), testDevice())
		if err != nil {
			t.Fatalf("TriggerBackup() error = %v", err)
		}

		want := filepath.Join(dir, "req-1.json")
		if h.Location != want {
			t.Errorf("Location = %q, want %q", h.Location, want)
		}
		if h.Backend != "spool" || h.DeviceID != 42 {
			t.Errorf("handle = %+v", h)
		}

		data, err := os.ReadFile(want)
		if err != nil {
			t.Fatalf("reading spool file: %v", err)
		}
		assertRequest(t, data)

		// No temp files left behind.
		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Errorf("spool dir has %d entries, want 1", len(entries))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		s, err := NewSpoolTrigger(t.TempDir(), testutil.FixedClock(), testutil.NewStubRequestIDs())
		if err != nil {
			t.Fatalf("NewSpoolTrigger() error = %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = s.TriggerBackup(ctx, testDevice())
		if !errors.Is(err, autobk.ErrTrigger) {
			t.Errorf("TriggerBackup() error = %v, want ErrTrigger", err)
		}
	})
}

func TestMemoryTrigger(t *testing.T) {
	m := NewMemoryTrigger(testutil.FixedClock(), testutil.NewStubRequestIDs())

	h1, err := m.TriggerBackup(context.Background(), testDevice())
	if err != nil {
		t.Fatalf("TriggerBackup() error = %v", err)
	}
	h2, _ := m.TriggerBackup(context.Background(), testDevice())

	if h1.ID == h2.ID {
		t.Errorf("handles share ID %q", h1.ID)
	}
	if got := len(m.Requests()); got != 2 {
		t.Errorf("len(Requests()) = %d, want 2", got)
	}
}

type fakeUploader struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = input
	f.body, _ = io.ReadAll(input.Body)
	return &manager.UploadOutput{}, nil
}

func TestS3Trigger(t *testing.T) {
	t.Run("uploads request under device prefix", func(t *testing.T) {
		up := &fakeUploader{}
		s := newS3Trigger(up, "backups", "requests", testutil.FixedClock(), testutil.NewStubRequestIDs())

		h, err := s.TriggerBackup(context.Background(), testDevice())
		if err != nil {
			t.Fatalf("TriggerBackup() error = %v", err)
		}

		if *up.input.Bucket != "backups" {
			t.Errorf("Bucket = %q, want %q", *up.input.Bucket, "backups")
		}
		if *up.input.Key != "requests/42/req-1.json" {
			t.Errorf("Key = %q, want %q", *up.input.Key, "requests/42/req-1.json")
		}
		if *up.input.ContentType != "application/json" {
			t.Errorf("ContentType = %q", *up.input.ContentType)
		}
		if h.Location != "s3://backups/requests/42/req-1.json" {
			t.Errorf("Location = %q", h.Location)
		}
		assertRequest(t, up.body)
	})

	t.Run("upload failure", func(t *testing.T) {
		up := &fakeUploader{err: errors.New("access denied")}
		s := newS3Trigger(up, "backups", "", testutil.FixedClock(), testutil.NewStubRequestIDs())

		_, err := s.TriggerBackup(context.Background(), testDevice())
		if !errors.Is(err, autobk.ErrTrigger) {
			t.Fatalf("TriggerBackup() error = %v, want ErrTrigger", err)
		}
		if !strings.Contains(err.Error(), "access denied") {
			t.Errorf("error %q does not carry the upload failure", err)
		}
	})
}

type fakeStream struct {
	args *redis.XAddArgs
	id   string
	err  error
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.args = a
	return redis.NewStringResult(f.id, f.err)
}

func TestRedisTrigger(t *testing.T) {
	t.Run("adds stream entry", func(t *testing.T) {
		fs := &fakeStream{id: "1700000000000-0"}
		r := newRedisTrigger(fs, "", testutil.FixedClock(), testutil.NewStubRequestIDs())

		h, err := r.TriggerBackup(context.Background(), testDevice())
		if err != nil {
			t.Fatalf("TriggerBackup() error = %v", err)
		}

		if fs.args.Stream != defaultRedisStream {
			t.Errorf("Stream = %q, want %q", fs.args.Stream, defaultRedisStream)
		}
		values := fs.args.Values.(map[string]interface{})
		assertRequest(t, []byte(values["data"].(string)))
		if values["timestamp"] != "1705314600" {
			t.Errorf("timestamp = %v, want 1705314600", values["timestamp"])
		}
		if h.Location != defaultRedisStream+"/1700000000000-0" {
			t.Errorf("Location = %q", h.Location)
		}
	})

	t.Run("xadd failure", func(t *testing.T) {
		fs := &fakeStream{err: errors.New("connection refused")}
		r := newRedisTrigger(fs, "requests", testutil.FixedClock(), testutil.NewStubRequestIDs())

		_, err := r.TriggerBackup(context.Background(), testDevice())
		if !errors.Is(err, autobk.ErrTrigger) {
			t.Errorf("TriggerBackup() error = %v, want ErrTrigger", err)
		}
	})
}

func TestNewTriggerFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TriggerConfig
		wantErr error
	}{
		{name: "spool", cfg: config.TriggerConfig{Type: "spool", SpoolDir: t.TempDir()}},
		{name: "default is spool", cfg: config.TriggerConfig{SpoolDir: t.TempDir()}},
		{name: "spool without dir", cfg: config.TriggerConfig{Type: "spool"}, wantErr: autobk.ErrConfig},
		{name: "s3 without bucket", cfg: config.TriggerConfig{Type: "s3"}, wantErr: autobk.ErrConfig},
		{name: "redis", cfg: config.TriggerConfig{Type: "redis", RedisAddr: "localhost:6379"}},
		{name: "redis without addr", cfg: config.TriggerConfig{Type: "redis"}, wantErr: autobk.ErrConfig},
		{name: "memory", cfg: config.TriggerConfig{Type: "memory"}},
		{name: "unknown", cfg: config.TriggerConfig{Type: "carrier-pigeon"}, wantErr: autobk.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTriggerFromConfig(context.Background(), tt.cfg, nil, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewTriggerFromConfig() error = %v, want %v", err, tt.wantErr)
				}
				if got != nil {
					t.Error("NewTriggerFromConfig() should return nil on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTriggerFromConfig() unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("NewTriggerFromConfig() returned nil")
			}
			if c, ok := got.(io.Closer); ok {
				c.Close()
			}
		})
	}
}
