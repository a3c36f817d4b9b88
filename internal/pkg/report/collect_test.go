package report

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/jake-scott/switchbot-cli/internal/pkg/jsonvalue"
	"github.com/jake-scott/switchbot-cli/internal/pkg/sbapi"
)

const listing = `{
	"statusCode": 100,
	"body": {
		"deviceList": [
			{"deviceId": "A1", "deviceName": "Meter", "deviceType": "Meter"},
			{"deviceId": "B2", "deviceName": "Plug", "deviceType": "Plug Mini (US)"},
			{"id": "C3", "deviceName": "Bot"},
			{"deviceName": "Nameless"}
		],
		"infraredRemoteList": [
			{"deviceId": "02-IR", "deviceName": "TV", "remoteType": "TV"}
		]
	},
	"message": "success"
}`

// fakeSwitchBot serves canned payloads and is safe for concurrent use
type fakeSwitchBot struct {
	devices  jsonvalue.Value
	listErr  error
	statuses map[string]string
	failures map[string]error
	delay    time.Duration

	mu      sync.Mutex
	queried []string
}

func newFakeSwitchBot(t *testing.T) *fakeSwitchBot {
	t.Helper()
	devices, err := jsonvalue.Parse([]byte(listing))
	if err != nil {
		t.Fatal(err)
	}

	return &fakeSwitchBot{
		devices: devices,
		statuses: map[string]string{
			"A1":    `{"statusCode":100,"body":{"temperature":21.5,"humidity":40},"message":"success"}`,
			"C3":    `{"statusCode":100,"body":{"power":"off"},"message":"success"}`,
			"02-IR": `{"statusCode":100,"body":{},"message":"success"}`,
		},
		failures: map[string]error{
			"B2": errors.New("GET /devices/B2/status: HTTP 500 Internal Server Error"),
		},
	}
}

func (f *fakeSwitchBot) WithContext(ctx context.Context) sbapi.SwitchBot { return f }
func (f *fakeSwitchBot) WithTimeout(d time.Duration) sbapi.SwitchBot     { return f }

func (f *fakeSwitchBot) Devices() (jsonvalue.Value, error) {
	if f.listErr != nil {
		return jsonvalue.Value{}, f.listErr
	}
	return f.devices, nil
}

func (f *fakeSwitchBot) DeviceStatus(deviceID string) (jsonvalue.Value, error) {
	f.mu.Lock()
	f.queried = append(f.queried, deviceID)
	f.mu.Unlock()

	time.Sleep(f.delay)

	if err, ok := f.failures[deviceID]; ok {
		return jsonvalue.Value{}, err
	}
	doc, ok := f.statuses[deviceID]
	if !ok {
		return jsonvalue.Value{}, errors.New("unknown device " + deviceID)
	}
	return jsonvalue.Parse([]byte(doc))
}

func text(row *jsonvalue.Row, key string) (string, bool) {
	v, ok := row.Get(key)
	return v.Text(), ok
}

func TestCollect_RowsInListingOrder(t *testing.T) {
	api := newFakeSwitchBot(t)

	rows, err := Collect(api, Options{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}

	first := rows[0]
	wantKeys := []string{
		"device.deviceId", "device.deviceName", "device.deviceType",
		"device.isInfrared", "status.temperature", "status.humidity",
	}
	if got := first.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Errorf("keys = %v, want %v", got, wantKeys)
	}
	if v, _ := text(first, "status.temperature"); v != "21.5" {
		t.Errorf("status.temperature = %s", v)
	}
	if v, _ := text(first, InfraredKey); v != "false" {
		t.Errorf("isInfrared = %s", v)
	}

	if v, _ := text(rows[2], "status.power"); v != "off" {
		t.Errorf("device with fallback id: status.power = %q", v)
	}

	ir := rows[4]
	if v, _ := text(ir, InfraredKey); v != "true" {
		t.Errorf("infrared row isInfrared = %s", v)
	}
	if _, ok := ir.Get(StatusErrorKey); ok {
		t.Error("empty status body reported as an error")
	}
}

func TestCollect_StatusFailureIsIsolated(t *testing.T) {
	api := newFakeSwitchBot(t)

	rows, err := Collect(api, Options{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	failed := rows[1]
	msg, ok := text(failed, StatusErrorKey)
	if !ok || msg == "" {
		t.Fatalf("expected status_error on B2, keys %v", failed.Keys())
	}
	for _, k := range failed.Keys() {
		if len(k) > len(StatusPrefix) && k[:len(StatusPrefix)+1] == StatusPrefix+"." {
			t.Errorf("failed row has status field %s", k)
		}
	}

	for _, i := range []int{0, 2, 4} {
		if _, ok := rows[i].Get(StatusErrorKey); ok {
			t.Errorf("row %d has an unexpected status_error", i)
		}
	}
}

func TestCollect_MissingIdentifier(t *testing.T) {
	api := newFakeSwitchBot(t)

	rows, err := Collect(api, Options{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	orphan := rows[3]
	if msg, _ := text(orphan, StatusErrorKey); msg != "missing deviceId" {
		t.Errorf("status_error = %q", msg)
	}
	if name, _ := text(orphan, "device.deviceName"); name != "Nameless" {
		t.Errorf("device fields missing from orphan row: %v", orphan.Keys())
	}

	for _, id := range api.queried {
		if id == "" {
			t.Error("status queried for a device without an identifier")
		}
	}
	if len(api.queried) != 4 {
		t.Errorf("expected 4 status lookups, got %v", api.queried)
	}
}

func TestCollect_SkipInfrared(t *testing.T) {
	api := newFakeSwitchBot(t)

	rows, err := Collect(api, Options{SkipInfrared: true})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if v, _ := text(row, InfraredKey); v != "false" {
			t.Errorf("infrared row present: %v", row.Keys())
		}
	}
}

func TestCollect_ListFailureAborts(t *testing.T) {
	api := newFakeSwitchBot(t)
	api.listErr = errors.New("listing devices: connection refused")

	rows, err := Collect(api, Options{})
	if err == nil || rows != nil {
		t.Errorf("expected abort, got rows %v err %v", rows, err)
	}
}

func TestCollect_ConcurrentMatchesSequential(t *testing.T) {
	sequential, err := Collect(newFakeSwitchBot(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	api := newFakeSwitchBot(t)
	api.delay = 5 * time.Millisecond
	concurrent, err := Collect(api, Options{Concurrency: 4})
	if err != nil {
		t.Fatal(err)
	}

	if len(sequential) != len(concurrent) {
		t.Fatalf("row counts differ: %d vs %d", len(sequential), len(concurrent))
	}
	for i := range sequential {
		if !reflect.DeepEqual(sequential[i].Keys(), concurrent[i].Keys()) {
			t.Errorf("row %d differs: %v vs %v", i, sequential[i].Keys(), concurrent[i].Keys())
		}
	}
}

func TestStatusAll(t *testing.T) {
	api := newFakeSwitchBot(t)

	result, err := StatusAll(api, 0)
	if err != nil {
		t.Fatalf("StatusAll: %v", err)
	}

	var keys []string
	for _, m := range result.Members() {
		keys = append(keys, m.Key)
	}
	if want := []string{"A1", "B2", "C3"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	failed, _ := result.Get("B2")
	if msg, ok := failed.Get("error"); !ok || msg.Text() == "" {
		t.Errorf("B2 = %s, want an error object", failed.Text())
	}

	ok, _ := result.Get("A1")
	if body, _ := ok.Get("body"); body.Kind() != jsonvalue.Object {
		t.Errorf("A1 = %s, want the status payload", ok.Text())
	}
}

func TestStatusAll_DuplicateIDs(t *testing.T) {
	api := newFakeSwitchBot(t)
	devices, err := jsonvalue.Parse([]byte(`{"body":{"deviceList":[{"deviceId":"A1"},{"deviceId":"C3"},{"deviceId":"A1"}]}}`))
	if err != nil {
		t.Fatal(err)
	}
	api.devices = devices

	result, err := StatusAll(api, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(result.Members()); n != 2 {
		t.Errorf("expected 2 members, got %d", n)
	}
}
