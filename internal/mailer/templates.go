package mailer

import "html/template"

// Subjects for the two staged email kinds.
const (
	subjectVerification = "Dr. Kleen - Verify Your Admin Account"
	subjectWelcome      = "Welcome to Dr. Kleen Admin Portal"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Verify Your Dr. Kleen Admin Account</title>
</head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden;">
        <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center;">
            <h1 style="color: white; margin: 0; font-size: 28px; font-weight: 300;">Dr. Kleen</h1>
            <p style="color: rgba(255, 255, 255, 0.9); margin: 10px 0 0 0;">Professional Cleaning Services</p>
        </div>
        <div style="padding: 40px 30px;">
            <h2 style="color: #333; margin: 0 0 20px 0;">Welcome to Dr. Kleen Admin Portal</h2>
            <p style="color: #666;">Hello <strong>{{.FullName}}</strong>,</p>
            <p style="color: #666;">
                Thank you for registering as an admin user for Dr. Kleen. To complete your
                registration and activate your account, please click the verification button below.
            </p>
            <div style="text-align: center; margin: 30px 0;">
                <a href="{{.VerificationURL}}" style="display: inline-block; background: #667eea; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px;">Verify Email Address</a>
            </div>
            <div style="background: #e8f4ff; border-left: 4px solid #667eea; padding: 15px; margin: 20px 0;">
                <ul style="color: #666; font-size: 14px; margin: 0; padding-left: 20px;">
                    <li>This verification link expires in 24 hours</li>
                    <li>Your account remains inactive until verified</li>
                    <li>Maximum 2 admin accounts allowed per system</li>
                </ul>
            </div>
            <p style="color: #666; font-size: 12px; word-break: break-all;">If the button doesn't work, copy this link: {{.VerificationURL}}</p>
            <p style="color: #999; font-size: 14px;">If you didn't request this registration, please ignore this email.</p>
        </div>
    </div>
</body>
</html>
`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Welcome to Dr. Kleen Admin Portal</title>
</head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden;">
        <div style="background: linear-gradient(135deg, #28a745 0%, #20c997 100%); padding: 30px; text-align: center;">
            <h1 style="color: white; margin: 0; font-size: 28px; font-weight: 300;">Dr. Kleen</h1>
            <p style="color: rgba(255, 255, 255, 0.9); margin: 10px 0 0 0;">Professional Cleaning Services</p>
        </div>
        <div style="padding: 40px 30px;">
            <h2 style="color: #333; margin: 0 0 20px 0;">Account Verified Successfully!</h2>
            <p style="color: #666;">Dear <strong>{{.FullName}}</strong>,</p>
            <p style="color: #666;">
                Congratulations! Your email address has been successfully verified and your
                Dr. Kleen admin account is now active.
            </p>
            <div style="text-align: center; margin: 30px 0;">
                <a href="{{.LoginURL}}" style="display: inline-block; background: #28a745; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px;">Access Admin Dashboard</a>
            </div>
            <ul style="color: #666; padding-left: 20px;">
                <li>Review and respond to customer inquiries</li>
                <li>Manage service bookings and appointments</li>
                <li>Update website settings and content</li>
            </ul>
        </div>
    </div>
</body>
</html>
`))
