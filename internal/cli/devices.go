package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/walshb/ncspot/internal/errors"
	"github.com/walshb/ncspot/internal/spotify/client"
)

var devicesTransfer string

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available playback devices",
	Long:  `Lists Spotify Connect devices available to this account.`,
	RunE:  runDevices,
}

func init() {
	devicesCmd.Flags().StringVarP(&devicesTransfer, "transfer", "t", "", "transfer playback to the device with this name or ID")
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	c, err := newSpotifyClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	devices, err := c.GetDevices(ctx)
	if err != nil {
		return err
	}

	if devicesTransfer != "" {
		return transferPlayback(ctx, c, devices, devicesTransfer)
	}

	if len(devices) == 0 {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode([]interface{}{})
		} else {
			fmt.Println("No devices found")
		}
		return nil
	}

	if JSONOutput() {
		return outputDevicesJSON(devices)
	}
	outputDevicesTable(devices)
	return nil
}

// transferPlayback moves playback to the device matching name or ID.
func transferPlayback(ctx context.Context, c *client.Client, devices []client.Device, target string) error {
	for _, d := range devices {
		if d.ID == target || strings.EqualFold(d.Name, target) {
			if err := c.TransferPlayback(ctx, d.ID, true); err != nil {
				return err
			}
			if JSONOutput() {
				return json.NewEncoder(os.Stdout).Encode(map[string]string{
					"status": "transferred",
					"device": d.Name,
				})
			}
			fmt.Printf("Playback transferred to %s\n", d.Name)
			return nil
		}
	}
	return errors.WithSuggestion(errors.ErrDeviceNotFound,
		fmt.Sprintf("Run 'ncspot devices' to see available devices; %q matched none", target))
}

func outputDevicesJSON(devices []client.Device) error {
	output := make([]map[string]interface{}, 0, len(devices))
	for _, d := range devices {
		item := map[string]interface{}{
			"id":        d.ID,
			"name":      d.Name,
			"type":      d.Type,
			"is_active": d.IsActive,
		}
		if d.VolumePercent != nil {
			item["volume"] = *d.VolumePercent
		}
		output = append(output, item)
	}
	return json.NewEncoder(os.Stdout).Encode(output)
}

func outputDevicesTable(devices []client.Device) {
	table := NewTable("", "NAME", "TYPE", "VOLUME", "ID")
	for _, d := range devices {
		volume := "-"
		if d.VolumePercent != nil {
			volume = strconv.Itoa(*d.VolumePercent) + "%"
		}
		table.Row(StatusIcon(d.IsActive), d.Name, d.Type, volume, d.ID)
	}
	table.Flush()
}
