package config

// HCL decoding targets. These mirror the file structure one-to-one and are
// translated into the resolved model by Load; nothing outside this package
// sees them.

type fileSchema struct {
	Analyses []*analysisSchema `hcl:"analysis,block"`
	Engine   *engineSchema     `hcl:"engine,block"`
	Store    *storeSchema      `hcl:"store,block"`
}

type analysisSchema struct {
	Name      string        `hcl:"name,label"`
	Model     string        `hcl:"model,optional"`
	ModelFile string        `hcl:"model_file,optional"`
	Data      *dataSchema   `hcl:"data,block"`
	Output    *outputSchema `hcl:"output,block"`
}

type dataSchema struct {
	CovarianceFile string      `hcl:"covariance_file,optional"`
	Labels         []string    `hcl:"labels,optional"`
	Covariance     [][]float64 `hcl:"covariance,optional"`
	SampleSize     int         `hcl:"sample_size"`
}

type outputSchema struct {
	Format    string `hcl:"format,optional"`
	Precision int    `hcl:"precision,optional"`
	Path      string `hcl:"path,optional"`
}

type engineSchema struct {
	BaseURL  string `hcl:"base_url"`
	Timeout  string `hcl:"timeout,optional"`
	TokenEnv string `hcl:"token_env,optional"`
}

type storeSchema struct {
	Path string `hcl:"path"`
}
