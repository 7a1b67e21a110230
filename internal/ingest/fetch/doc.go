// Package fetch retrieves upstream pages and feeds for the sync jobs.
//
// Client wraps resty with a politeness limiter; BrowserSource renders pages
// in headless Chrome for sources that need JavaScript. Policy adds bounded
// retries with linear backoff and reports every segment as a Result whose
// Outcome distinguishes data, an empty upstream answer, and a failure.
package fetch
