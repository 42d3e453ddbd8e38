// Package client routes image generation requests to the configured
// provider adapters.
//
// A Client holds credentials and endpoint overrides. Each call builds the
// adapter it needs, optionally enhances the prompt first, and makes exactly
// one generation call. There are no retries and no fallback between
// providers.
//
// # Basic Usage
//
//	c := client.New(client.Config{
//	    APIKeys: map[ai.Provider]string{
//	        ai.ProviderOpenAI: os.Getenv("OPENAI_API_KEY"),
//	    },
//	    Enhancer: client.EnhancerConfig{APIKey: os.Getenv("GROQ_API_KEY")},
//	})
//
//	res, err := c.Generate(ctx, client.Request{
//	    Provider: ai.ProviderOpenAI,
//	    Prompt:   "a lighthouse on a cliff",
//	    Enhance:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Prompt, res.Image)
//
// # Credentials
//
// A provider that needs a credential and has none configured fails with a
// configuration error before any request is made, including the
// enhancement call.
//
// # Events
//
// Set Config.Events to observe enhancement and generation calls. Events are
// sent without blocking and dropped when the channel is full.
package client
