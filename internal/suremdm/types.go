// Package suremdm implements the client for the SureMDM provider API:
// device detail lookups and batch custom-property updates.
package suremdm

// Event type the provider sends when a device is removed. Detail lookups
// are pointless for these, the device is already gone.
const DeletionEventType = "Device Deletion"

// Sentinels applied at the response boundary only; DeviceRecord itself
// carries empty strings for absent fields.
const (
	UnknownValue      = "N/A"
	UnknownDeviceName = "Unknown Device"
	DeletedDeviceName = "Deleted Device"
)

// DeviceRecord holds the device fields resolved from the provider's detail
// endpoint. Absent fields are empty strings.
type DeviceRecord struct {
	DeviceName   string
	IMEI         string
	MacAddress   string
	SerialNumber string
}

// DeviceView is the serialization of a DeviceRecord for the webhook
// response, with unknown sentinels substituted for absent fields.
type DeviceView struct {
	DeviceName   string `json:"deviceName"`
	IMEI         string `json:"imei"`
	MacAddress   string `json:"macAddress"`
	SerialNumber string `json:"serialNumber"`
}

// View renders the record for the response body, substituting sentinels.
func (d DeviceRecord) View() DeviceView {
	return DeviceView{
		DeviceName:   orSentinel(d.DeviceName, UnknownDeviceName),
		IMEI:         orSentinel(d.IMEI, UnknownValue),
		MacAddress:   orSentinel(d.MacAddress, UnknownValue),
		SerialNumber: orSentinel(d.SerialNumber, UnknownValue),
	}
}

func orSentinel(value, sentinel string) string {
	if value == "" {
		return sentinel
	}
	return value
}

// IsDeletionEvent reports whether eventType is the provider's deletion
// sentinel. Exact match; other lifecycle events all get a detail lookup.
func IsDeletionEvent(eventType string) bool {
	return eventType == DeletionEventType
}

// DeletedDeviceRecord is the placeholder record used when a deletion event
// short-circuits the detail lookup. No serial number is available.
func DeletedDeviceRecord() DeviceRecord {
	return DeviceRecord{DeviceName: DeletedDeviceName}
}

// PropertyEdit is one outbound instruction to set a custom property value
// on a device. The wire field names are the provider's.
type PropertyEdit struct {
	DeviceID      string `json:"_id"`
	PropertyKey   string `json:"CustomPropertiesKey"`
	ExistingKey   string `json:"CustomAttributeExistingKey"`
	PropertyValue string `json:"CustomPropertiesValue"`
}

// UpdateResult is the provider's response to a property update, parsed as
// JSON when possible and kept as a raw string otherwise.
type UpdateResult interface{}

// deviceDetailResponse mirrors the provider's detail endpoint body.
type deviceDetailResponse struct {
	Data struct {
		Rows []deviceRow `json:"rows"`
	} `json:"data"`
}

type deviceRow struct {
	DeviceName   string `json:"DeviceName"`
	IMEI         string `json:"IMEI"`
	MacAddress   string `json:"MacAddress"`
	SerialNumber string `json:"SerialNumber"`
}
