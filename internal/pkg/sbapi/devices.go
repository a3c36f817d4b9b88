package sbapi

import (
	"github.com/jake-scott/switchbot-cli/internal/pkg/jsonvalue"
)

/*
  Response envelope for GET /devices:

{
    "statusCode": 100,
    "body": {
        "deviceList": [
            {
                "deviceId": "500291B269BE",
                "deviceName": "Living Room Humidifier",
                "deviceType": "Humidifier",
                "enableCloudService": true,
                "hubDeviceId": "000000000000"
            }
        ],
        "infraredRemoteList": [
            {
                "deviceId": "02-202008110034-13",
                "deviceName": "Living Room TV",
                "remoteType": "TV",
                "hubDeviceId": "FA7310762361"
            }
        ]
    },
    "message": "success"
}
*/

// Body returns the "body" member of a response envelope, or null
func Body(payload jsonvalue.Value) jsonvalue.Value {
	body, _ := payload.Get("body")
	return body
}

// DeviceList returns the physical devices from a listing response, followed
// by the infrared remotes when includeInfrared is set
func DeviceList(payload jsonvalue.Value, includeInfrared bool) []DeviceEntry {
	body := Body(payload)

	var entries []DeviceEntry
	if list, ok := body.Get("deviceList"); ok {
		for _, d := range list.Elements() {
			entries = append(entries, DeviceEntry{Device: d})
		}
	}

	if includeInfrared {
		if list, ok := body.Get("infraredRemoteList"); ok {
			for _, d := range list.Elements() {
				entries = append(entries, DeviceEntry{Device: d, Infrared: true})
			}
		}
	}

	return entries
}

// DeviceID returns the "deviceId" of a device, falling back to "id".  Empty
// and null identifiers count as missing.
func DeviceID(device jsonvalue.Value) (string, bool) {
	for _, key := range []string{"deviceId", "id"} {
		v, ok := device.Get(key)
		if !ok {
			continue
		}

		switch v.Kind() {
		case jsonvalue.String, jsonvalue.Number:
			if id := v.Text(); id != "" {
				return id, true
			}
		}
	}

	return "", false
}
