// Package templates holds the HTML bodies for alert emails.
package templates

import "fmt"

// ReauthAlertProps carries the values rendered into the re-authentication
// alert email.
type ReauthAlertProps struct {
	PlatformName string
	FailedSince  string
	FailureCount int
}

// GetReauthAlertContent renders the body of the session-failure alert.
func GetReauthAlertContent(props ReauthAlertProps) string {
	return fmt.Sprintf(`
    <h2 style="color:#1a1a1a;margin-bottom:16px;">Your %s session needs attention</h2>
    <p style="color:#444;line-height:1.6;">
      MarketBridge has been unable to verify your %s session since %s
      (%d consecutive failed checks). The platform has most likely logged
      you out.
    </p>
    <p style="color:#444;line-height:1.6;">
      To keep your dashboard live, log in to %s in your browser and
      re-capture the session with the MarketBridge extension. There is no
      way to restore the session from our side.
    </p>`,
		props.PlatformName, props.PlatformName, props.FailedSince,
		props.FailureCount, props.PlatformName)
}

// GetEmailLayout wraps content in the shared outer layout.
func GetEmailLayout(content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="margin:0;padding:0;background-color:#f4f4f5;font-family:Helvetica,Arial,sans-serif;">
    <div style="max-width:560px;margin:32px auto;background:#ffffff;border-radius:8px;padding:32px;">
      %s
      <hr style="border:none;border-top:1px solid #e4e4e7;margin:24px 0;" />
      <p style="color:#999;font-size:12px;">Sent by MarketBridge session monitoring.</p>
    </div>
  </body>
</html>`, content)
}
