package report

import (
	"github.com/korovkin/limiter"

	"github.com/jake-scott/switchbot-cli/internal/pkg/jsonvalue"
	"github.com/jake-scott/switchbot-cli/internal/pkg/logging"
	"github.com/jake-scott/switchbot-cli/internal/pkg/sbapi"
)

// Row keys added on top of the flattened device and status fields
const (
	DevicePrefix   = "device"
	StatusPrefix   = "status"
	InfraredKey    = "device.isInfrared"
	StatusErrorKey = "status_error"

	missingIDError = "missing deviceId"
)

type Options struct {
	// Leave infrared remotes out of the report
	SkipInfrared bool

	// Maximum number of status requests in flight; 0 or 1 is sequential
	Concurrency int
}

// Collect lists the devices and builds one flattened row per device with
// its status merged in.  A failing status lookup is recorded in the
// device's status_error column and does not stop the batch.  Rows are in
// listing order.
func Collect(api sbapi.SwitchBot, opts Options) ([]*jsonvalue.Row, error) {
	payload, err := api.Devices()
	if err != nil {
		return nil, err
	}

	entries := sbapi.DeviceList(payload, !opts.SkipInfrared)
	rows := make([]*jsonvalue.Row, len(entries))

	forEach(len(entries), opts.Concurrency, func(i int) {
		rows[i] = deviceRow(api, entries[i])
	})

	return rows, nil
}

func deviceRow(api sbapi.SwitchBot, entry sbapi.DeviceEntry) *jsonvalue.Row {
	row := jsonvalue.Flatten(DevicePrefix, entry.Device)
	row.Set(InfraredKey, jsonvalue.BoolValue(entry.Infrared))

	deviceID, ok := sbapi.DeviceID(entry.Device)
	if !ok {
		logging.Logger(nil).Warnf("device without an identifier: %s", entry.Device.Text())
		row.Set(StatusErrorKey, jsonvalue.StringValue(missingIDError))
		return row
	}

	status, err := api.DeviceStatus(deviceID)
	if err != nil {
		logging.Logger(nil).WithError(err).Warnf("device %s: status unavailable", deviceID)
		row.Set(StatusErrorKey, jsonvalue.StringValue(err.Error()))
		return row
	}

	if body := sbapi.Body(status); body.Kind() != jsonvalue.Null {
		row.Merge(jsonvalue.Flatten(StatusPrefix, body))
	}

	return row
}

// StatusAll fetches the status of every physical device.  The result is an
// object keyed by device ID, in listing order; a device whose lookup failed
// maps to {"error": "..."}.  Devices without an ID are skipped.
func StatusAll(api sbapi.SwitchBot, concurrency int) (jsonvalue.Value, error) {
	payload, err := api.Devices()
	if err != nil {
		return jsonvalue.Value{}, err
	}

	entries := sbapi.DeviceList(payload, false)
	results := make([]*jsonvalue.Member, len(entries))

	forEach(len(entries), concurrency, func(i int) {
		deviceID, ok := sbapi.DeviceID(entries[i].Device)
		if !ok {
			logging.Logger(nil).Warnf("skipping device without an identifier: %s", entries[i].Device.Text())
			return
		}

		status, err := api.DeviceStatus(deviceID)
		if err != nil {
			logging.Logger(nil).WithError(err).Warnf("device %s: status unavailable", deviceID)
			status = jsonvalue.ObjectValue(jsonvalue.Member{Key: "error", Value: jsonvalue.StringValue(err.Error())})
		}

		results[i] = &jsonvalue.Member{Key: deviceID, Value: status}
	})

	// a repeated ID keeps its first position and its last result
	index := make(map[string]int)
	var members []jsonvalue.Member
	for _, m := range results {
		if m == nil {
			continue
		}
		if i, ok := index[m.Key]; ok {
			members[i] = *m
			continue
		}
		index[m.Key] = len(members)
		members = append(members, *m)
	}

	return jsonvalue.ObjectValue(members...), nil
}

// forEach calls fn for 0..n-1, with up to concurrency calls running at once
func forEach(n int, concurrency int, fn func(i int)) {
	if concurrency <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	limit := limiter.NewConcurrencyLimiter(concurrency)
	for i := 0; i < n; i++ {
		i := i
		limit.ExecuteWithTicket(func(ticket int) {
			logging.Logger(nil).Debugf("status-goroutine %d: device %d", ticket, i)
			fn(i)
		})
	}

	limit.Wait()
}
