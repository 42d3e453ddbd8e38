// Package imagegen provides a uniform interface over third-party image
// generation APIs.
//
// Every vendor speaks a different dialect: OpenAI returns hosted URLs,
// Stability streams raw bytes from a multipart upload, NVIDIA answers with a
// list of base64 artifacts, and Replicate runs an asynchronous prediction.
// This package defines the shared vocabulary those adapters normalize into:
//
//   - [Provider]: which vendor to call
//   - [ImageRef]: the generated image, either a URL or inline base64 data
//   - [GenerationError]: the terminal failure, carrying the vendor status code
//
// Use the [github.com/Amul-Thantharate/vscode-ai-image-generator/client]
// package as the entry point. It validates credentials, optionally enhances
// the prompt, and dispatches to the selected vendor:
//
//	c := client.New(client.Config{
//	    APIKeys: map[ai.Provider]string{
//	        ai.ProviderOpenAI: os.Getenv("OPENAI_API_KEY"),
//	    },
//	})
//
//	res, err := c.Generate(ctx, client.Request{
//	    Provider: ai.ProviderOpenAI,
//	    Prompt:   "a red fox in a snowy forest",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	switch res.Image.Kind() {
//	case ai.RefURL:
//	    fmt.Println("download from", res.Image.URL())
//	case ai.RefInline:
//	    data, _ := res.Image.Decode()
//	    os.WriteFile("out.png", data, 0o644)
//	}
//
// # Errors
//
// Failures are reported as [*GenerationError] with one of four kinds:
//
//   - [ErrorTransport]: the vendor could not be reached
//   - [ErrorVendor]: the vendor answered with a non-success status
//   - [ErrorMalformed]: a success response lacked the expected image
//   - [ErrorConfiguration]: the call was not attempted (missing credential)
//
// Use [StatusCodeOf] to read the vendor status code from any wrapped error.
package imagegen
