package fragment

// Built-in fragment names.
const (
	JenkinsCompose              = "jenkins.yml"
	JenkinsGDSL                 = "idea.gdsl"
	MavenDistributionManagement = "distribution-management.xml"
	GradlePublishing            = "publishing.gradle"
)

// builtinFragments maps fragment name to content.
var builtinFragments = map[string]string{
	JenkinsCompose:              jenkinsComposeFragment,
	JenkinsGDSL:                 jenkinsGDSLFragment,
	MavenDistributionManagement: mavenDistributionFragment,
	GradlePublishing:            gradlePublishingFragment,
}

const jenkinsComposeFragment = `# This configuration is intended for development purpose, it's **your** responsibility to harden it for production
name: {{app_name}}-jenkins
services:
  jenkins:
    image: jenkins/jenkins:lts-jdk{{java_major}}
    user: root
    privileged: true
    ports:
      - 127.0.0.1:18080:8080
      - 127.0.0.1:50000:50000
    volumes:
      - ~/volumes/jenkins_home:/var/jenkins_home
      - /var/run/docker.sock:/var/run/docker.sock
`

const jenkinsGDSLFragment = `// Editor support for the {{app_name}} Jenkinsfile.
// The pipeline runs its stages inside {{base_image}}.
def ctx = context(scope: scriptScope())
contributor(ctx) {
    method(name: 'node', type: 'Object', params: [body: 'groovy.lang.Closure'], doc: 'Allocates an executor and workspace')
    method(name: 'stage', type: 'Object', params: [name: 'java.lang.String', body: 'groovy.lang.Closure'], doc: 'Defines a pipeline stage')
    method(name: 'sh', type: 'Object', params: [script: 'java.lang.String'], doc: 'Runs a shell script')
    method(name: 'checkout', type: 'Object', params: [scm: 'java.util.Map'], doc: 'Checks out the configured SCM')
    method(name: 'junit', type: 'Object', params: [testResults: 'java.lang.String'], doc: 'Archives JUnit test reports')
    method(name: 'archiveArtifacts', type: 'Object', namedParams: [parameter(name: 'artifacts', type: 'java.lang.String'), parameter(name: 'fingerprint', type: 'boolean')], doc: 'Archives build artifacts')
    method(name: 'withCredentials', type: 'Object', params: [bindings: 'java.util.List', body: 'groovy.lang.Closure'], doc: 'Binds credentials to variables')
    method(name: 'withSonarQubeEnv', type: 'Object', params: [installationName: 'java.lang.String', body: 'groovy.lang.Closure'], doc: 'Prepares the analysis server environment')
    property(name: 'env', type: 'org.jenkinsci.plugins.workflow.cps.EnvActionImpl.Binder')
    property(name: 'params', type: 'org.jenkinsci.plugins.workflow.cps.ParamsVariable')
    property(name: 'scm', type: 'org.jenkinsci.plugins.workflow.multibranch.SCMVar')
    property(name: 'docker', type: 'org.jenkinsci.plugins.docker.workflow.DockerDSL')
}
`

const mavenDistributionFragment = `    <distributionManagement>{{#if snapshots_url}}
        <snapshotRepository>
            <id>{{snapshots_id}}</id>
            <url>{{snapshots_url}}</url>
        </snapshotRepository>{{/if}}{{#if releases_url}}
        <repository>
            <id>{{releases_id}}</id>
            <url>{{releases_url}}</url>
        </repository>{{/if}}
    </distributionManagement>
`

const gradlePublishingFragment = `
publishing {
    publications {
        mavenJava(MavenPublication) {
            artifact bootJar
        }
    }
    repositories {
        maven {
            name = "{{releases_id}}"
            def releasesRepoUrl = "{{releases_url}}"
            def snapshotsRepoUrl = "{{snapshots_url}}"
            url = version.endsWith('SNAPSHOT') ? snapshotsRepoUrl : releasesRepoUrl
        }
    }
}
`
