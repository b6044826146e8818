package mailer

import (
	"fmt"
	"html"
	"time"
)

func inviteHTML(params InviteParams) string {
	inviter := html.EscapeString(params.InviterName)
	org := html.EscapeString(params.OrganizationName)
	role := html.EscapeString(params.RoleLabel)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f0f4ff;font-family:'Segoe UI',Roboto,Arial,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f0f4ff;padding:40px 20px;">
    <tr><td align="center">
      <table width="560" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:16px;overflow:hidden;">
        <tr>
          <td style="background:linear-gradient(135deg,#2563eb,#1d4ed8);padding:32px 40px;text-align:center;">
            <h1 style="color:#ffffff;font-size:24px;margin:0;">Transify</h1>
            <p style="color:#bfdbfe;font-size:13px;margin:8px 0 0;">Smart Transport Intelligence</p>
          </td>
        </tr>
        <tr>
          <td style="padding:36px 40px;">
            <h2 style="color:#1e293b;font-size:20px;margin:0 0 8px;">You've been invited!</h2>
            <p style="color:#64748b;font-size:15px;line-height:1.6;margin:0 0 24px;">
              <strong>%s</strong> has invited you to join <strong>%s</strong> as a <strong>%s</strong> on Transify.
            </p>
            <table width="100%%" cellpadding="0" cellspacing="0">
              <tr><td align="center">
                <a href="%s" style="display:inline-block;background:#2563eb;color:#ffffff;font-size:15px;font-weight:600;text-decoration:none;padding:14px 40px;border-radius:12px;">Accept Invitation</a>
              </td></tr>
            </table>
            <p style="color:#94a3b8;font-size:12px;text-align:center;margin:24px 0 0;">
              This invite expires in <strong>48 hours</strong>.<br>
              If you didn't expect this invitation, you can safely ignore this email.
            </p>
          </td>
        </tr>
        <tr>
          <td style="background-color:#f8fafc;padding:20px 40px;border-top:1px solid #e2e8f0;">
            <p style="color:#94a3b8;font-size:11px;text-align:center;margin:0;">&copy; %d Transify &middot; Smart Transport Intelligence</p>
          </td>
        </tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, inviter, org, role, params.AcceptURL, time.Now().Year())
}

func otpHTML(code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f0f4ff;font-family:'Segoe UI',Roboto,Arial,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f0f4ff;padding:40px 20px;">
    <tr><td align="center">
      <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:16px;overflow:hidden;">
        <tr>
          <td style="background:linear-gradient(135deg,#2563eb,#1d4ed8);padding:28px 40px;text-align:center;">
            <h1 style="color:#ffffff;font-size:22px;margin:0;">Transify</h1>
            <p style="color:#bfdbfe;font-size:12px;margin:6px 0 0;">Admin Verification</p>
          </td>
        </tr>
        <tr>
          <td style="padding:32px 40px;text-align:center;">
            <p style="color:#64748b;font-size:14px;margin:0 0 24px;">Your one-time verification code is:</p>
            <div style="background-color:#f0f4ff;border-radius:12px;padding:20px;display:inline-block;">
              <span style="font-size:36px;font-weight:800;letter-spacing:8px;color:#1e293b;font-family:monospace;">%s</span>
            </div>
            <p style="color:#94a3b8;font-size:12px;margin:24px 0 0;">This code expires in <strong>10 minutes</strong>.</p>
            <p style="color:#94a3b8;font-size:11px;margin:8px 0 0;">If you didn't request this code, please ignore this email.</p>
          </td>
        </tr>
        <tr>
          <td style="background-color:#f8fafc;padding:16px 40px;border-top:1px solid #e2e8f0;">
            <p style="color:#94a3b8;font-size:10px;text-align:center;margin:0;">&copy; %d Transify &middot; Smart Transport Intelligence</p>
          </td>
        </tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, html.EscapeString(code), time.Now().Year())
}
