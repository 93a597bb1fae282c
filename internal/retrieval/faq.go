package retrieval

import "github.com/wayfinder-ai/wayfinder/internal/domain"

// troubleshootingGuide is the built-in knowledge that must stay
// retrievable even when nothing has been crawled. Connection problems
// dominate support traffic, so the canonical fixes live here.
const troubleshootingGuide = `
WAYFINDER TROUBLESHOOTING GUIDE

Common Connection Issues and Solutions:

1. SAME WI-FI REQUIREMENT
   - Your phone and your desktop must be on the same local network
   - Hotspots, mobile data, or hotel Wi-Fi can cause problems
   - Solution: Connect both devices to the same Wi-Fi network

2. LATEST VERSION
   - Always use the latest desktop server from wayfinder.app
   - Outdated versions may have connection issues
   - Solution: Download the latest version from wayfinder.app

3. FIREWALL BLOCKING
   - The OS may ask for firewall permissions when first running the server
   - You must allow both private and public networks
   - Manual check: firewall settings > allowed apps > Wayfinder server
   - Solution: Allow the server through the firewall

4. ADMINISTRATOR MODE
   - Running the server with elevated privileges can help eliminate issues
   - Not always necessary but helpful for troubleshooting

5. HOTEL WI-FI OR PUBLIC NETWORKS
   - Some networks isolate devices for security
   - Your phone won't see your desktop even on the same Wi-Fi
   - Solution: Use a home or private Wi-Fi network, or a mobile hotspot

6. RESTART BOTH DEVICES
   - Restart the app on your phone
   - Restart the server on your desktop
   - Double-check you entered the correct PIN and IP address

COMMON QUESTIONS:

Q: Is this safe to use?
A: Yes. The app does not access your files or send data anywhere. It only
works over your local network and requires a PIN to connect.

Q: It doesn't connect, what's wrong?
A: Make sure your desktop and phone are on the same Wi-Fi. Some networks
(like hotel or office Wi-Fi) may block local connections. Try a mobile
hotspot or home network if possible.
`

// FAQDocumentID identifies the synthetic guide in retrieval results.
const FAQDocumentID = "troubleshooting-guide"

// newFAQDocument builds the synthetic guide document. Its single
// chunk's vector is filled in lazily by the Retriever.
func newFAQDocument() *domain.Document {
	return &domain.Document{
		ID:     FAQDocumentID,
		URL:    "wayfinder.app/help",
		Title:  "Wayfinder Troubleshooting Guide",
		Text:   troubleshootingGuide,
		Chunks: []string{troubleshootingGuide},
	}
}
